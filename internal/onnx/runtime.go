// Package onnx hosts the ONNX Runtime sessions behind the text encoder and
// vocoder interfaces.
package onnx

import (
	"fmt"
	"os"

	ort "github.com/yalue/onnxruntime_go"
)

// Initialize locates the ONNX Runtime shared library and brings up the
// runtime environment. It must be called once before any session is
// created.
func Initialize() error {
	libPath := os.Getenv("ONNXRUNTIME_LIB_PATH")
	if libPath == "" {
		libPath = "/usr/local/lib/libonnxruntime.so"

		if _, err := os.Stat("/usr/local/lib/libonnxruntime.dylib"); err == nil {
			libPath = "/usr/local/lib/libonnxruntime.dylib"
		} else if _, err := os.Stat("/usr/lib/libonnxruntime.so"); err == nil {
			libPath = "/usr/lib/libonnxruntime.so"
		}
	}

	ort.SetSharedLibraryPath(libPath)

	err := ort.InitializeEnvironment()
	if err != nil {
		return fmt.Errorf("failed to initialize ONNX Runtime: %w", err)
	}

	return nil
}

// Shutdown tears down the runtime environment. Sessions must be closed
// first.
func Shutdown() error {
	err := ort.DestroyEnvironment()
	if err != nil {
		return fmt.Errorf("failed to destroy ONNX Runtime environment: %w", err)
	}

	return nil
}
