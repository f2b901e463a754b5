// Package wailsapp provides the screen-capture Wails binding.
package wailsapp

import (
	"fmt"
	"os/exec"
	goruntime "runtime"
)

// CaptureScreen launches the OS snipping tool. Windows only; other
// platforms get an error the frontend shows inline.
func (a *App) CaptureScreen() error {
	if goruntime.GOOS != "windows" {
		return fmt.Errorf("captura de tela disponível apenas no Windows")
	}
	cmd := exec.Command("explorer.exe", "ms-screenclip:")
	if err := cmd.Start(); err != nil {
		a.logError("capture", err.Error())
		return fmt.Errorf("falha ao abrir a ferramenta de captura: %w", err)
	}
	a.logInfo("capture", "Ferramenta de captura aberta")
	return nil
}
