package api

import "time"

type ResponseError struct {
	Message string `json:"message,omitempty"`
	Type    string `json:"type,omitempty"`
	Code    string `json:"code,omitempty"`
	Param   string `json:"param,omitempty"`
}

type FileList struct {
	Object string     `json:"object"`
	Data   []FileInfo `json:"data"`
}

type FileInfo struct {
	Name    string    `json:"name"`
	Size    int64     `json:"size"`
	ModTime time.Time `json:"mod_time"`
}

type FileDetail struct {
	Name         string    `json:"name"`
	Size         int64     `json:"size"`
	Description  string    `json:"description"`
	Version      uint16    `json:"version"`
	ByteOrder    string    `json:"byte_order"`
	HasSubsystem bool      `json:"has_subsystem"`
	Elements     int       `json:"elements"`
	Variables    int       `json:"variables"`
	ETag         string    `json:"etag"`
	LoadedAt     time.Time `json:"loaded_at"`
}

type VariableList struct {
	Object string         `json:"object"`
	File   string         `json:"file"`
	Data   []VariableInfo `json:"data"`
}

type VariableInfo struct {
	Name     string  `json:"name"`
	Class    string  `json:"class"`
	Dims     []int32 `json:"dims"`
	Complex  bool    `json:"complex"`
	Elements int     `json:"elements"`
}

type VariableValues struct {
	VariableInfo
	Type string `json:"type"`
	Real any    `json:"real"`
	Imag any    `json:"imag,omitempty"`
}
