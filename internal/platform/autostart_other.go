//go:build !linux && !darwin && !windows

package platform

import "errors"

func installLoginItem(appName, execPath string) error {
	return errors.ErrUnsupported
}

func removeLoginItem(appName string) error {
	return errors.ErrUnsupported
}
