package service

import "sync"

// KeyLock 按 key 串行化的互斥锁表。
// 同一用户的购物车读改写与下单提交/清空必须互斥（见 CartService / OrderService），
// 不同用户之间互不阻塞。条目带引用计数，释放后即回收，不随用户数无限增长。
type KeyLock struct {
	mu    sync.Mutex
	locks map[string]*keyLockEntry
}

type keyLockEntry struct {
	mu   sync.Mutex
	refs int
}

// NewKeyLock 创建锁表
func NewKeyLock() *KeyLock {
	return &KeyLock{locks: make(map[string]*keyLockEntry)}
}

// Lock 获取 key 对应的互斥锁
func (l *KeyLock) Lock(key string) {
	l.mu.Lock()
	entry, ok := l.locks[key]
	if !ok {
		entry = &keyLockEntry{}
		l.locks[key] = entry
	}
	entry.refs++
	l.mu.Unlock()

	entry.mu.Lock()
}

// Unlock 释放 key 对应的互斥锁
func (l *KeyLock) Unlock(key string) {
	l.mu.Lock()
	entry, ok := l.locks[key]
	if ok {
		entry.refs--
		if entry.refs <= 0 {
			delete(l.locks, key)
		}
	}
	l.mu.Unlock()

	if ok {
		entry.mu.Unlock()
	}
}
