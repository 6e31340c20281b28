package config

// Version is the dealdesk binary version.
// Set at build time via: -ldflags "-X github.com/dealdeskai/dealdesk/internal/config.Version=<tag>"
// Defaults to "dev" when built without ldflags.
var Version = "dev"
