package config

// Version is the graphway binary version.
// Set at build time via: -ldflags "-X github.com/graphway/graphway/internal/config.Version=<tag>"
// Defaults to "dev" when built without ldflags.
var Version = "dev"
