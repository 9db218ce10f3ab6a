// Switchboard CI/CD
//
// Package main provides reproducible builds and tests locally and in GitHub actions.
package main

import (
	"context"

	"dagger/switchboard/internal/dagger"
)

// Switchboard is the main module for the switchboard CI/CD pipeline
type Switchboard struct {
	// Project source directory
	//
	// +private
	Source *dagger.Directory
}

// New creates a new Switchboard CI/CD module instance
func New(
	// Project source directory.
	//
	// +defaultPath="/"
	// +ignore=[".git", ".direnv", ".devenv", "build", "tmp"]
	source *dagger.Directory,
) *Switchboard {
	return &Switchboard{
		Source: source,
	}
}

// goContainer returns an Alpine Go container with the project source mounted.
// Nothing in switchboard needs cgo, so builds are fully static.
func (s *Switchboard) goContainer() *dagger.Container {
	return dag.Container().
		From("golang:1.25-alpine").
		WithEnvVariable("CGO_ENABLED", "0").
		WithMountedCache("/go/pkg/mod", dag.CacheVolume("go-mod")).
		WithMountedCache("/root/.cache/go-build", dag.CacheVolume("go-build")).
		WithWorkdir("/src").
		WithDirectory("/src", s.Source)
}

// Test runs the switchboard unit tests via "go test"
func (s *Switchboard) Test(ctx context.Context) (string, error) {
	return s.goContainer().
		WithExec([]string{"go", "test", "-v", "./..."}).
		Stdout(ctx)
}

// Vet runs "go vet" over every package
//
// +check
func (s *Switchboard) Vet(ctx context.Context) (string, error) {
	return s.goContainer().
		WithExec([]string{"go", "vet", "./..."}).
		Stdout(ctx)
}
