//go:build windows

package ssdp

import (
	"syscall"

	"golang.org/x/sys/windows"
)

// reuseAddr enables SO_REUSEADDR before bind so hued can share the SSDP port
// with other discovery services on the host.
func reuseAddr(network, address string, c syscall.RawConn) error {
	var sockErr error
	err := c.Control(func(fd uintptr) {
		sockErr = windows.SetsockoptInt(windows.Handle(fd), windows.SOL_SOCKET, windows.SO_REUSEADDR, 1)
	})
	if err != nil {
		return err
	}
	return sockErr
}
