package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"dagger/switchboard/internal/dagger"
)

// Build and return directory of go binaries
func (s *Switchboard) Build(
	ctx context.Context,

	// Linker flags for go build
	// +optional
	// +default="-s -w"
	ldflags string,
) *dagger.Directory {
	gooses := []string{"linux", "darwin"}
	goarches := []string{"amd64", "arm64"}

	outputs := dag.Directory()
	golang := s.goContainer()

	for _, goos := range gooses {
		for _, goarch := range goarches {
			path := fmt.Sprintf("%s/%s/", goos, goarch)

			build := golang.
				WithEnvVariable("GOOS", goos).
				WithEnvVariable("GOARCH", goarch).
				WithExec([]string{"go", "build", "-ldflags", ldflags, "-o", path, "./cli/switchboard"})

			outputs = outputs.WithDirectory(path, build.Directory(path))
		}
	}

	return outputs.WithDirectory("lambda/", s.BuildLambda(ctx, ldflags))
}

// BuildLambda compiles the Lambda entry point as "bootstrap" for the
// provided.al2023 runtime, one directory per architecture.
func (s *Switchboard) BuildLambda(
	ctx context.Context,

	// Linker flags for go build
	// +optional
	// +default="-s -w"
	ldflags string,
) *dagger.Directory {
	outputs := dag.Directory()

	for _, goarch := range []string{"amd64", "arm64"} {
		path := goarch + "/"

		build := s.goContainer().
			WithEnvVariable("GOOS", "linux").
			WithEnvVariable("GOARCH", goarch).
			WithExec([]string{"go", "build", "-tags", "lambda.norpc", "-ldflags", ldflags, "-o", path + "bootstrap", "./cli/switchboard-lambda"})

		outputs = outputs.WithDirectory(path, build.Directory(path))
	}

	return outputs
}

// BuildRelease compiles versioned release binaries with embedded version info
func (s *Switchboard) BuildRelease(
	ctx context.Context,

	// Version string of build
	version string,

	// Git commit SHA of build
	commit string,
) *dagger.Directory {
	buildtime := time.Now()

	ldflags := []string{
		"-s",
		"-w",
		fmt.Sprintf("-X 'github.com/papercomputeco/switchboard/pkg/utils.Version=%s'", version),
		fmt.Sprintf("-X 'github.com/papercomputeco/switchboard/pkg/utils.Sha=%s'", commit),
		fmt.Sprintf("-X 'github.com/papercomputeco/switchboard/pkg/utils.Buildtime=%s'", buildtime),
	}

	return s.Build(ctx, strings.Join(ldflags, " "))
}
