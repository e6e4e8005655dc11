package tools

import "embed"

// ConfigFiles carries the YAML guidance tool definitions compiled into the
// binary, so a deployed server needs no config directory on disk.
//
//go:embed all:config
var ConfigFiles embed.FS
