// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package pipeline

import (
	_ "embed"
	"errors"
	"fmt"
	"sync"

	"github.com/gogpu/naga"
	"github.com/gogpu/naga/ir"
)

// Entry points of the triangle shader.
const (
	VertexEntryPoint   = "vs_main"
	FragmentEntryPoint = "fs_main"
)

//go:embed shaders/triangle.wgsl
var triangleWGSL string

// Source returns the WGSL source of the triangle shader.
func Source() string { return triangleWGSL }

// ErrShader is returned when the shader source does not compile or lacks an
// entry point. It is fatal.
var ErrShader = errors.New("pipeline: invalid shader")

var checkTriangle = sync.OnceValue(func() error {
	return ValidateShader(triangleWGSL)
})

// ValidateShader parses, lowers and validates WGSL source on the CPU and
// checks that it declares the vertex and fragment entry points used by the
// pipeline. Errors wrap ErrShader.
func ValidateShader(src string) error {
	ast, err := naga.Parse(src)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrShader, err)
	}
	module, err := naga.LowerWithSource(ast, src)
	if err != nil {
		return fmt.Errorf("%w: lower: %w", ErrShader, err)
	}
	issues, err := naga.Validate(module)
	if err != nil {
		return fmt.Errorf("%w: validate: %w", ErrShader, err)
	}
	if len(issues) > 0 {
		return fmt.Errorf("%w: %w", ErrShader, issues[0])
	}

	if err := requireEntryPoint(module, VertexEntryPoint, ir.StageVertex); err != nil {
		return err
	}
	return requireEntryPoint(module, FragmentEntryPoint, ir.StageFragment)
}

func requireEntryPoint(m *ir.Module, name string, stage ir.ShaderStage) error {
	for _, ep := range m.EntryPoints {
		if ep.Name != name {
			continue
		}
		if ep.Stage != stage {
			return fmt.Errorf("%w: entry point %q has stage %d, want %d", ErrShader, name, ep.Stage, stage)
		}
		return nil
	}
	return fmt.Errorf("%w: missing entry point %q", ErrShader, name)
}
