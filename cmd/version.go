// -- cmd/version.go --
package cmd

// Version is the lancet-cli release version. Overridden at build time via
// -ldflags "-X github.com/xkilldash9x/lancet-cli/cmd.Version=...".
var Version = "0.1.0-dev"
