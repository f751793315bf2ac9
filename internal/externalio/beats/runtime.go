package beats

// Gracefully stops module
func (mod *OutModule) Close() (err error) {
	if mod == nil {
		return
	}
	mod.mutex.Lock()
	defer mod.mutex.Unlock()
	if mod.client != nil {
		err = mod.client.Close()
		mod.client = nil
		mod.conn = nil
	}
	return
}
