//go:build windows

package core

import "os/exec"

// killProcessGroup keeps the default cancellation on Windows; WaitDelay
// still bounds the wait for orphaned pipe holders.
func killProcessGroup(cmd *exec.Cmd) {}
