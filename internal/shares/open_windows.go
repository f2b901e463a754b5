//go:build windows

package shares

import (
	"fmt"
	"os/exec"
)

// OpenFile opens a validated path with its associated application.
func (s *Share) OpenFile(path string) error {
	validated, err := s.ValidatePath(path)
	if err != nil {
		return err
	}
	cmd := exec.Command("cmd", "/C", "start", "", validated)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("Falha ao abrir arquivo: %v", err)
	}
	return nil
}
