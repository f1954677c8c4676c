// Package branding holds the product name shared by every surface.
package branding

// AppName is the display name used by servers and documents.
const AppName = "Ten Facts"
