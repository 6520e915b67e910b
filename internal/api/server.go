package api

import (
	"encoding/binary"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/labstack/echo/v5"

	"github.com/samcharles93/matkit/internal/matstore"
	"github.com/samcharles93/matkit/pkg/matfile"
)

// Server exposes the MAT-files of one directory as a read-only HTTP
// API. Containers are decoded through the store, so repeated requests
// for the same file share one decode.
type Server struct {
	dir   string
	store *matstore.Store
}

func NewServer(dir string, store *matstore.Store) (*Server, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	return &Server{dir: abs, store: store}, nil
}

func (s *Server) Register(e *echo.Echo) {
	e.GET("/v1/files", s.handleListFiles)
	e.GET("/v1/files/:file", s.handleGetFile)
	e.GET("/v1/files/:file/variables", s.handleListVariables)
	e.GET("/v1/files/:file/variables/:name", s.handleGetVariable)
}

func (s *Server) handleListFiles(c *echo.Context) error {
	ents, err := os.ReadDir(s.dir)
	if err != nil {
		return writeError(c, http.StatusInternalServerError, "server_error", err.Error(), "", "")
	}
	files := make([]FileInfo, 0, len(ents))
	for _, ent := range ents {
		if ent.IsDir() || !strings.HasSuffix(strings.ToLower(ent.Name()), ".mat") {
			continue
		}
		info, err := ent.Info()
		if err != nil {
			continue
		}
		files = append(files, FileInfo{
			Name:    ent.Name(),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}
	return writeJSON(c, http.StatusOK, FileList{Object: "list", Data: files})
}

func (s *Server) handleGetFile(c *echo.Context) error {
	ent, err := s.lookup(c.Param("file"))
	if err != nil {
		return s.writeLookupError(c, err)
	}
	if setETag(c, ent) {
		c.Response().WriteHeader(http.StatusNotModified)
		return nil
	}

	f := ent.File
	return writeJSON(c, http.StatusOK, FileDetail{
		Name:         filepath.Base(ent.Path),
		Size:         ent.Size,
		Description:  f.Header.Description(),
		Version:      f.Header.Version,
		ByteOrder:    byteOrderName(f.Header.Order),
		HasSubsystem: f.Header.HasSubsystem(),
		Elements:     len(f.Elements),
		Variables:    len(f.Who()),
		ETag:         ent.ETag,
		LoadedAt:     ent.Loaded,
	})
}

func (s *Server) handleListVariables(c *echo.Context) error {
	ent, err := s.lookup(c.Param("file"))
	if err != nil {
		return s.writeLookupError(c, err)
	}
	if setETag(c, ent) {
		c.Response().WriteHeader(http.StatusNotModified)
		return nil
	}

	vars := make([]VariableInfo, 0, len(ent.File.Elements))
	for i := range ent.File.Elements {
		if a := ent.File.Elements[i].Array; a != nil {
			vars = append(vars, variableInfo(a))
		}
	}
	return writeJSON(c, http.StatusOK, VariableList{
		Object: "list",
		File:   filepath.Base(ent.Path),
		Data:   vars,
	})
}

func (s *Server) handleGetVariable(c *echo.Context) error {
	ent, err := s.lookup(c.Param("file"))
	if err != nil {
		return s.writeLookupError(c, err)
	}
	arr, err := ent.File.Array(c.Param("name"))
	if err != nil {
		return s.writeLookupError(c, err)
	}
	if setETag(c, ent) {
		c.Response().WriteHeader(http.StatusNotModified)
		return nil
	}

	realVals, err := arr.Real.Values()
	if err != nil {
		return writeUndecodable(c, err.Error())
	}
	out := VariableValues{
		VariableInfo: variableInfo(arr),
		Type:         arr.Real.Type.String(),
		Real:         realVals,
	}
	if arr.Imag != nil {
		imagVals, err := arr.Imag.Values()
		if err != nil {
			return writeUndecodable(c, err.Error())
		}
		out.Imag = imagVals
	}
	return writeJSON(c, http.StatusOK, out)
}

func (s *Server) lookup(name string) (*matstore.Entry, error) {
	path, err := s.resolveFile(name)
	if err != nil {
		return nil, err
	}
	return s.store.Get(path)
}

// resolveFile maps a request name onto a file inside the served
// directory. Names that are not a plain file name, or that start with a
// dot, never resolve; a bare name also matches with a .mat suffix.
func (s *Server) resolveFile(name string) (string, error) {
	if name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		return "", newFileNotServed(name)
	}
	path := filepath.Join(s.dir, name)
	if fileExists(path) {
		return path, nil
	}
	if !strings.HasSuffix(strings.ToLower(name), ".mat") {
		if cand := path + ".mat"; fileExists(cand) {
			return cand, nil
		}
	}
	return "", newFileNotServed(name)
}

func (s *Server) writeLookupError(c *echo.Context, err error) error {
	switch {
	case errors.Is(err, ErrFileNotServed),
		errors.Is(err, matfile.ErrVariableNotFound),
		errors.Is(err, os.ErrNotExist):
		return writeNotFound(c, err.Error())
	case errors.Is(err, matfile.ErrTruncated),
		errors.Is(err, matfile.ErrCorruptStream),
		errors.Is(err, matfile.ErrUnsupportedClass),
		errors.Is(err, matfile.ErrSizeMismatch),
		errors.Is(err, matfile.ErrTooLarge):
		return writeUndecodable(c, err.Error())
	default:
		return writeError(c, http.StatusInternalServerError, "server_error", err.Error(), "", "")
	}
}

func variableInfo(a *matfile.Array) VariableInfo {
	return VariableInfo{
		Name:     a.Name,
		Class:    a.Class().String(),
		Dims:     a.Dims,
		Complex:  a.IsComplex(),
		Elements: a.NumElements(),
	}
}

func byteOrderName(order binary.ByteOrder) string {
	if order == binary.BigEndian {
		return "big"
	}
	return "little"
}

func fileExists(path string) bool {
	st, err := os.Stat(path)
	return err == nil && !st.IsDir()
}
