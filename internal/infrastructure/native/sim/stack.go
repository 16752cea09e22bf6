package sim

import "github.com/MGTheTrain/managed-openssl/internal/domain/native"

type list struct {
	items []native.Ptr
}

func (*list) kindName() string { return "STACK" }

func (l *Library) listLocked(sk native.Ptr) *list {
	if sk.IsNull() {
		l.raiseLocked(libCrypto, reasonPassedNullParameter)
		return nil
	}
	obj, ok := l.objects[sk]
	if !ok {
		l.raiseLocked(libCrypto, reasonInvalidHandle)
		return nil
	}
	st, ok := obj.(*list)
	if !ok {
		l.raiseLocked(libCrypto, reasonWrongObjectType)
		return nil
	}
	return st
}

// SkNewNull implements native.ListPrimitives.
func (l *Library) SkNewNull() native.Ptr {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.faultLocked(OpSkNewNull) {
		l.raiseLocked(libCrypto, reasonMallocFailure)
		return native.Null
	}
	return l.allocLocked(&list{})
}

// SkPush implements native.ListPrimitives.
func (l *Library) SkPush(sk, p native.Ptr) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	st := l.listLocked(sk)
	if st == nil {
		return 0
	}
	if l.faultLocked(OpSkPush) {
		l.raiseLocked(libCrypto, reasonMallocFailure)
		return 0
	}
	st.items = append(st.items, p)
	return len(st.items)
}

// SkShift implements native.ListPrimitives.
func (l *Library) SkShift(sk native.Ptr) native.Ptr {
	l.mu.Lock()
	defer l.mu.Unlock()

	st := l.listLocked(sk)
	if st == nil || len(st.items) == 0 {
		return native.Null
	}
	p := st.items[0]
	st.items = st.items[1:]
	return p
}

// SkInsert implements native.ListPrimitives.
func (l *Library) SkInsert(sk, p native.Ptr, where int) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	st := l.listLocked(sk)
	if st == nil {
		return 0
	}
	if l.faultLocked(OpSkInsert) {
		l.raiseLocked(libCrypto, reasonMallocFailure)
		return 0
	}
	if where < 0 || where >= len(st.items) {
		st.items = append(st.items, p)
		return len(st.items)
	}
	st.items = append(st.items, native.Null)
	copy(st.items[where+1:], st.items[where:])
	st.items[where] = p
	return len(st.items)
}

// SkDelete implements native.ListPrimitives.
func (l *Library) SkDelete(sk native.Ptr, where int) native.Ptr {
	l.mu.Lock()
	defer l.mu.Unlock()

	st := l.listLocked(sk)
	if st == nil || where < 0 || where >= len(st.items) {
		return native.Null
	}
	p := st.items[where]
	st.items = append(st.items[:where], st.items[where+1:]...)
	return p
}

// SkDeletePtr implements native.ListPrimitives.
func (l *Library) SkDeletePtr(sk, p native.Ptr) native.Ptr {
	l.mu.Lock()
	defer l.mu.Unlock()

	st := l.listLocked(sk)
	if st == nil {
		return native.Null
	}
	for i, item := range st.items {
		if item == p {
			st.items = append(st.items[:i], st.items[i+1:]...)
			return p
		}
	}
	return native.Null
}

// SkFind implements native.ListPrimitives.
func (l *Library) SkFind(sk, p native.Ptr) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	st := l.listLocked(sk)
	if st == nil {
		return -1
	}
	for i, item := range st.items {
		if item == p {
			return i
		}
	}
	return -1
}

// SkValue implements native.ListPrimitives.
func (l *Library) SkValue(sk native.Ptr, i int) native.Ptr {
	l.mu.Lock()
	defer l.mu.Unlock()

	st := l.listLocked(sk)
	if st == nil || i < 0 || i >= len(st.items) {
		return native.Null
	}
	return st.items[i]
}

// SkNum implements native.ListPrimitives.
func (l *Library) SkNum(sk native.Ptr) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	st := l.listLocked(sk)
	if st == nil {
		return -1
	}
	if l.faultLocked(OpSkNum) {
		return -1
	}
	return len(st.items)
}

// SkZero implements native.ListPrimitives.
func (l *Library) SkZero(sk native.Ptr) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if st := l.listLocked(sk); st != nil {
		st.items = st.items[:0]
	}
}

// SkFree implements native.ListPrimitives.
func (l *Library) SkFree(sk native.Ptr) {
	l.mu.Lock()
	defer l.mu.Unlock()

	// freeing NULL is a no-op natively
	if sk.IsNull() {
		return
	}
	if st := l.listLocked(sk); st != nil {
		l.releaseLocked(sk)
	}
}
