package main

import (
	"context"
	"errors"

	docshot "github.com/alnah/go-docshot"
	"github.com/alnah/go-docshot/internal/assets"
	"github.com/alnah/go-docshot/internal/config"
	"github.com/alnah/go-docshot/internal/hints"
	"github.com/alnah/go-docshot/internal/pipeline"
)

// builtinStyles lists the embedded stylesheet names.
var builtinStyles = []string{"default", "dark"}

// hintFor returns an actionable hint line for err, or "".
func hintFor(err error, env *Environment) string {
	switch {
	case errors.Is(err, ErrNoEndpoint):
		return hints.ForEndpoint()
	case errors.Is(err, docshot.ErrUnavailable):
		return hints.ForUnavailable(env.endpoint)
	case errors.Is(err, docshot.ErrBrowserConnect):
		return hints.ForBrowserConnect()
	case errors.Is(err, docshot.ErrPoolExhausted):
		return hints.ForPoolExhausted()
	case errors.Is(err, pipeline.ErrTeXCommand):
		return hints.ForTeXCommand(env.texCommand)
	case errors.Is(err, config.ErrConfigNotFound):
		return hints.ForConfigNotFound(config.SearchPaths(env.configName))
	case errors.Is(err, assets.ErrStyleNotFound):
		return hints.ForStyleNotFound(builtinStyles)
	case errors.Is(err, ErrWriteOutput):
		return hints.ForOutputDirectory()
	case errors.Is(err, context.DeadlineExceeded):
		return hints.ForTimeout()
	}
	return ""
}
