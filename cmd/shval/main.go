package main

import (
	"encoding/binary"
	"flag"
	"fmt"
	"os"

	"shaderval/shader"
)

// Exit codes (SPEC_FULL.md §6): 0 = shader validated successfully,
// 1 = shader failed validation (diagnostic log printed), 2 = the tool
// itself could not run (bad flags, unreadable file, ...).
const (
	exitOK        = 0
	exitFailed    = 1
	exitToolError = 2
)

var (
	psPath   = flag.String("ps", "", "path to a pixel shader bytecode file")
	vsPath   = flag.String("vs", "", "path to a vertex shader bytecode file")
	declPath = flag.String("decl", "", "path to a vertex declaration token stream (required with -vs)")
	capsPath = flag.String("caps", "", "path to a TOML capability override file")
	flags    = flag.Uint("flags", 0, "reserved validation flags, must be 0")
)

func init() {
	flag.Parse()
}

func main() {
	if (*psPath == "") == (*vsPath == "") {
		fmt.Println("Usage: shval -ps <file> | -vs <file> -decl <file> [-caps <file>]")
		os.Exit(exitToolError)
	}

	var result shader.Result
	var err error
	if *psPath != "" {
		result, err = validatePixelShaderFile(*psPath, *capsPath, uint32(*flags))
	} else {
		result, err = validateVertexShaderFile(*vsPath, *declPath, *capsPath, uint32(*flags))
	}
	if err != nil {
		fmt.Println(err)
		os.Exit(exitToolError)
	}

	if result.Log != "" {
		fmt.Print(result.Log)
	}
	fmt.Println(result.Verdict)

	if result.Verdict != shader.VerdictSuccess {
		os.Exit(exitFailed)
	}
	os.Exit(exitOK)
}

func validatePixelShaderFile(path, caps string, flagBits uint32) (shader.Result, error) {
	code, err := readTokenFile(path)
	if err != nil {
		return shader.Result{}, err
	}
	c, err := loadPSCaps(caps)
	if err != nil {
		return shader.Result{}, err
	}
	return shader.ValidatePixelShader(code, c, flagBits), nil
}

func validateVertexShaderFile(path, declPath, caps string, flagBits uint32) (shader.Result, error) {
	if declPath == "" {
		return shader.Result{}, fmt.Errorf("-decl is required with -vs")
	}
	code, err := readTokenFile(path)
	if err != nil {
		return shader.Result{}, err
	}
	decl, err := readTokenFile(declPath)
	if err != nil {
		return shader.Result{}, err
	}
	c, err := loadVSCaps(caps)
	if err != nil {
		return shader.Result{}, err
	}
	return shader.ValidateVertexShader(code, decl, c, flagBits), nil
}

func loadPSCaps(path string) (shader.Capabilities, error) {
	if path == "" {
		return shader.DefaultPixelShaderCaps(), nil
	}
	return shader.LoadPixelShaderCaps(path)
}

func loadVSCaps(path string) (shader.Capabilities, error) {
	if path == "" {
		return shader.DefaultVertexShaderCaps(), nil
	}
	return shader.LoadVertexShaderCaps(path)
}

// readTokenFile reads a file of little-endian 32-bit tokens, the wire
// shape the real D3DX assembler output uses for compiled shader blobs.
func readTokenFile(path string) ([]uint32, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if len(raw)%4 != 0 {
		return nil, fmt.Errorf("%s: length %d is not a multiple of 4 bytes", path, len(raw))
	}
	words := make([]uint32, len(raw)/4)
	for i := range words {
		words[i] = binary.LittleEndian.Uint32(raw[i*4:])
	}
	return words, nil
}
