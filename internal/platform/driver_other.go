//go:build !linux

package platform

// NewDriver reports ErrUnsupported; only X11 on Linux has a native driver.
// The memory driver remains available through Open("memory").
func NewDriver() (Driver, error) {
	return nil, ErrUnsupported
}
