package api

import (
	"net/http"

	json "github.com/goccy/go-json"
	"github.com/labstack/echo/v5"

	"github.com/samcharles93/matkit/internal/matstore"
)

// writeJSON marshals v and writes it directly to the response; variable
// payloads can be large, so bodies bypass echo's default serializer.
func writeJSON(c *echo.Context, status int, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	res := c.Response()
	res.Header().Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	res.WriteHeader(status)
	_, err = res.Write(b)
	return err
}

func writeNotFound(c *echo.Context, msg string) error {
	return writeError(c, http.StatusNotFound, "not_found_error", msg, "", "")
}

func writeUndecodable(c *echo.Context, msg string) error {
	return writeError(c, http.StatusUnprocessableEntity, "undecodable_file_error", msg, "", "")
}

func writeError(c *echo.Context, status int, errType, msg, param, code string) error {
	return writeJSON(c, status, map[string]any{
		"error": ResponseError{
			Message: msg,
			Type:    errType,
			Code:    code,
			Param:   param,
		},
	})
}

// setETag writes the entry's validator on the response and reports
// whether the client already holds the current representation.
func setETag(c *echo.Context, ent *matstore.Entry) bool {
	etag := `"` + ent.ETag + `"`
	c.Response().Header().Set("ETag", etag)
	return c.Request().Header.Get("If-None-Match") == etag
}
