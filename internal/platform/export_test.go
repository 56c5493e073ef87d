package platform

// Unregister removes goos so tests can register it again.
func Unregister(goos string) {
	mu.Lock()
	defer mu.Unlock()
	delete(factories, goos)
}
