package stackcraft

import "embed"

// StaticAssets contains the default static assets served under /public/:
// site.css, favicon.svg and the social preview image.
//
//go:embed static
var StaticAssets embed.FS
