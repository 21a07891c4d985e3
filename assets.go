// Package classifier embeds the frontend templates and static assets.
package classifier

import "embed"

// In dev mode (IsDev=true) assets are loaded from disk for hot reloading.
// Otherwise they are served from these embedded filesystems.

//go:embed all:frontend/static
var StaticFS embed.FS

//go:embed all:frontend/templates
var TemplateFS embed.FS
