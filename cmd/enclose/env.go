package main

import (
	"io"
	"os"
	"time"

	"github.com/alnah/go-enclose"
)

// Environment holds injectable dependencies for testability.
type Environment struct {
	Now     func() time.Time
	Stdout  io.Writer
	Stderr  io.Writer
	Open    func(path string) error // opens a file in the browser
	Options []enclose.Option        // appended after the resolved options
}

// DefaultEnv returns the production environment.
func DefaultEnv() *Environment {
	return &Environment{
		Now:    time.Now,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		Open:   enclose.OpenInBrowser,
	}
}
