package activityservice

func NewFeed(size int) *Feed {
	if size < 1 {
		size = 1
	}
	return &Feed{items: make([]Activity, size)}
}

func (f *Feed) Add(a Activity) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.items[f.next] = a
	f.next = (f.next + 1) % len(f.items)
	if f.next == 0 {
		f.full = true
	}
}

// Recent returns the stored activities, newest first.
func (f *Feed) Recent() []Activity {
	f.mu.RLock()
	defer f.mu.RUnlock()

	n := f.next
	if f.full {
		n = len(f.items)
	}

	res := make([]Activity, 0, n)
	for i := 1; i <= n; i++ {
		res = append(res, f.items[(f.next-i+len(f.items))%len(f.items)])
	}

	return res
}
