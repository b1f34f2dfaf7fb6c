// Package templates 内嵌访问码页面模板
package templates

import (
	"embed"
	"html/template"
)

//go:embed *.html
var files embed.FS

// Load 解析全部内嵌页面，按文件名引用（index.html、success.html）
func Load() (*template.Template, error) {
	return template.ParseFS(files, "*.html")
}
