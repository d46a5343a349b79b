// Package web embeds the dashboard of the monitoring server.
package web

import (
	"embed"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
)

// DevModeEnv names the environment variable that makes the server read the
// dashboard from the source tree, so that it can be edited without
// rebuilding.
const DevModeEnv = "HANDSHAKESIM_MONITOR_DEV"

//go:embed dist/*
var dist embed.FS

// GetAssets returns the files of the dashboard.
func GetAssets() http.FileSystem {
	if devMode() {
		dir := sourceDir()
		fmt.Fprintf(os.Stderr, "Serving monitor assets from %s\n", dir)

		return http.Dir(dir)
	}

	sub, err := fs.Sub(dist, "dist")
	if err != nil {
		panic(err)
	}

	return http.FS(sub)
}

func devMode() bool {
	on, err := strconv.ParseBool(os.Getenv(DevModeEnv))

	return err == nil && on
}

func sourceDir() string {
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		panic("cannot locate the monitor assets")
	}

	return filepath.Join(filepath.Dir(file), "dist")
}
