//go:build !linux && !windows

package serial

func openNative(name string, cfg Config) (device, error) {
	return nil, newPortError(KindOpen, "Opening "+name, ErrUnsupported)
}
