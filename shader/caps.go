package shader

import "github.com/BurntSushi/toml"

// Capabilities is the subset of a D3DCAPS8-shaped structure the rule
// engine actually consults. It is borrowed read-only for the lifetime of
// a single validation call.
type Capabilities struct {
	MaxInstructions   int
	MaxTexOps         int
	MaxBlendOps       int
	MaxTempRegisters  int
	MaxConstRegisters int
	MaxTextureStages  int

	MinPixelShaderMajor, MinPixelShaderMinor   uint8
	MaxPixelShaderMajor, MaxPixelShaderMinor   uint8
	MinVertexShaderMajor, MinVertexShaderMinor uint8
	MaxVertexShaderMajor, MaxVertexShaderMinor uint8

	// MaxConstantPortReads bounds the number of distinct constant
	// registers a single instruction (or co-issued pair) may reference,
	// per spec.md's ValidRegisterPortUsage rule.
	MaxConstantPortReads int
}

// DefaultPixelShaderCaps models a representative PS 1.1-1.4 capable
// device: 2 temps, 8 constants, 4 texture stages, up to 96 instructions.
func DefaultPixelShaderCaps() Capabilities {
	return Capabilities{
		MaxInstructions:      96,
		MaxTexOps:            32,
		MaxBlendOps:          64,
		MaxTempRegisters:     2,
		MaxConstRegisters:    8,
		MaxTextureStages:     4,
		MinPixelShaderMajor:  1,
		MinPixelShaderMinor:  1,
		MaxPixelShaderMajor:  1,
		MaxPixelShaderMinor:  4,
		MaxConstantPortReads: 2,
	}
}

// DefaultVertexShaderCaps models a representative VS 1.1 capable device:
// 12 temps, 96 constants, up to 128 instructions.
func DefaultVertexShaderCaps() Capabilities {
	return Capabilities{
		MaxInstructions:       128,
		MaxTexOps:             0,
		MaxBlendOps:           128,
		MaxTempRegisters:      12,
		MaxConstRegisters:     96,
		MinVertexShaderMajor:  1,
		MinVertexShaderMinor:  1,
		MaxVertexShaderMajor:  1,
		MaxVertexShaderMinor:  1,
		MaxConstantPortReads:  2,
	}
}

// capabilitiesFile is the on-disk shape accepted by LoadPixelShaderCaps
// and LoadVertexShaderCaps.
type capabilitiesFile struct {
	MaxInstructions      int `toml:"max_instructions"`
	MaxTexOps            int `toml:"max_tex_ops"`
	MaxBlendOps          int `toml:"max_blend_ops"`
	MaxTempRegisters     int `toml:"max_temp_registers"`
	MaxConstRegisters    int `toml:"max_const_registers"`
	MaxTextureStages     int `toml:"max_texture_stages"`
	MaxConstantPortReads int `toml:"max_constant_port_reads"`

	MinMajor uint8 `toml:"min_major"`
	MinMinor uint8 `toml:"min_minor"`
	MaxMajor uint8 `toml:"max_major"`
	MaxMinor uint8 `toml:"max_minor"`
}

// LoadPixelShaderCaps reads a TOML capability override file, starting
// from DefaultPixelShaderCaps and overwriting any field the file sets.
func LoadPixelShaderCaps(path string) (Capabilities, error) {
	caps := DefaultPixelShaderCaps()
	var f capabilitiesFile
	if _, err := toml.DecodeFile(path, &f); err != nil {
		return caps, err
	}
	applyCapabilitiesFile(&caps, f)
	caps.MinPixelShaderMajor, caps.MinPixelShaderMinor = orDefault(f.MinMajor, f.MinMinor, caps.MinPixelShaderMajor, caps.MinPixelShaderMinor)
	caps.MaxPixelShaderMajor, caps.MaxPixelShaderMinor = orDefault(f.MaxMajor, f.MaxMinor, caps.MaxPixelShaderMajor, caps.MaxPixelShaderMinor)
	return caps, nil
}

// LoadVertexShaderCaps reads a TOML capability override file, starting
// from DefaultVertexShaderCaps.
func LoadVertexShaderCaps(path string) (Capabilities, error) {
	caps := DefaultVertexShaderCaps()
	var f capabilitiesFile
	if _, err := toml.DecodeFile(path, &f); err != nil {
		return caps, err
	}
	applyCapabilitiesFile(&caps, f)
	caps.MinVertexShaderMajor, caps.MinVertexShaderMinor = orDefault(f.MinMajor, f.MinMinor, caps.MinVertexShaderMajor, caps.MinVertexShaderMinor)
	caps.MaxVertexShaderMajor, caps.MaxVertexShaderMinor = orDefault(f.MaxMajor, f.MaxMinor, caps.MaxVertexShaderMajor, caps.MaxVertexShaderMinor)
	return caps, nil
}

func applyCapabilitiesFile(caps *Capabilities, f capabilitiesFile) {
	if f.MaxInstructions != 0 {
		caps.MaxInstructions = f.MaxInstructions
	}
	if f.MaxTexOps != 0 {
		caps.MaxTexOps = f.MaxTexOps
	}
	if f.MaxBlendOps != 0 {
		caps.MaxBlendOps = f.MaxBlendOps
	}
	if f.MaxTempRegisters != 0 {
		caps.MaxTempRegisters = f.MaxTempRegisters
	}
	if f.MaxConstRegisters != 0 {
		caps.MaxConstRegisters = f.MaxConstRegisters
	}
	if f.MaxTextureStages != 0 {
		caps.MaxTextureStages = f.MaxTextureStages
	}
	if f.MaxConstantPortReads != 0 {
		caps.MaxConstantPortReads = f.MaxConstantPortReads
	}
}

func orDefault(major, minor, defMajor, defMinor uint8) (uint8, uint8) {
	if major == 0 && minor == 0 {
		return defMajor, defMinor
	}
	return major, minor
}
