package tcp

// Gracefully stops module
func (mod *OutModule) Close() (err error) {
	if mod == nil {
		return
	}
	mod.mutex.Lock()
	defer mod.mutex.Unlock()
	if mod.conn != nil {
		err = mod.conn.Close()
		mod.conn = nil
	}
	return
}
