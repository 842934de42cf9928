package circuitbreaker

import (
	"errors"
	"testing"
	"time"
)

var errNotFound = errors.New("key not found")

func tripAfter(n uint32) func(Counts) bool {
	return func(counts Counts) bool {
		return counts.ConsecutiveFailures >= n
	}
}

// TestCircuitBreaker_ClosedState 测试关闭状态（正常）
func TestCircuitBreaker_ClosedState(t *testing.T) {
	cb := NewCircuitBreaker("test", Config{
		MaxRequests: 3,
		Interval:    10 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: tripAfter(5),
	})

	for i := 0; i < 10; i++ {
		if err := cb.Execute(func() error { return nil }); err != nil {
			t.Fatalf("期望成功，实际失败: %v", err)
		}
	}

	if cb.State() != StateClosed {
		t.Errorf("期望状态为CLOSED，实际%s", cb.State())
	}
	if counts := cb.Counts(); counts.TotalSuccesses != 10 {
		t.Errorf("期望成功10次，实际%d次", counts.TotalSuccesses)
	}
}

// TestCircuitBreaker_OpenState 测试打开状态（熔断后不再调用）
func TestCircuitBreaker_OpenState(t *testing.T) {
	cb := NewCircuitBreaker("test", Config{
		Interval:    10 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: tripAfter(5),
	})

	for i := 0; i < 5; i++ {
		_ = cb.Execute(func() error { return errors.New("connection refused") })
	}

	if cb.State() != StateOpen {
		t.Errorf("期望状态为OPEN，实际%s", cb.State())
	}

	called := false
	err := cb.Execute(func() error {
		called = true
		return nil
	})
	if err != ErrOpenState {
		t.Errorf("期望返回ErrOpenState，实际%v", err)
	}
	if called {
		t.Error("熔断器打开时不应该调用实际函数")
	}
}

// TestCircuitBreaker_HalfOpenState 测试半开状态探测成功后关闭
func TestCircuitBreaker_HalfOpenState(t *testing.T) {
	cb := NewCircuitBreaker("test", Config{
		MaxRequests: 1,
		Interval:    10 * time.Second,
		Timeout:     100 * time.Millisecond,
		ReadyToTrip: tripAfter(3),
	})

	for i := 0; i < 3; i++ {
		_ = cb.Execute(func() error { return errors.New("fail") })
	}
	if cb.State() != StateOpen {
		t.Fatalf("期望状态为OPEN，实际%s", cb.State())
	}

	time.Sleep(150 * time.Millisecond)

	called := false
	err := cb.Execute(func() error {
		called = true
		return nil
	})
	if err != nil {
		t.Errorf("半开状态第一次请求期望成功，实际%v", err)
	}
	if !called {
		t.Error("半开状态应该允许请求通过")
	}
	if cb.State() != StateClosed {
		t.Errorf("期望状态转为CLOSED，实际%s", cb.State())
	}
}

// TestCircuitBreaker_HalfOpenToOpen 测试半开状态失败后转回打开
func TestCircuitBreaker_HalfOpenToOpen(t *testing.T) {
	cb := NewCircuitBreaker("test", Config{
		Interval:    10 * time.Second,
		Timeout:     100 * time.Millisecond,
		ReadyToTrip: tripAfter(3),
	})

	for i := 0; i < 3; i++ {
		_ = cb.Execute(func() error { return errors.New("fail") })
	}

	time.Sleep(150 * time.Millisecond)

	_ = cb.Execute(func() error { return errors.New("still fail") })

	if cb.State() != StateOpen {
		t.Errorf("期望状态转回OPEN，实际%s", cb.State())
	}
}

// TestCircuitBreaker_StateChangeCallback 测试状态变化回调
func TestCircuitBreaker_StateChangeCallback(t *testing.T) {
	var stateChanges []string

	cb := NewCircuitBreaker("test", Config{
		Interval:    10 * time.Second,
		Timeout:     100 * time.Millisecond,
		ReadyToTrip: tripAfter(3),
	})
	cb.SetStateChangeCallback(func(name string, from State, to State) {
		stateChanges = append(stateChanges, from.String()+"->"+to.String())
	})

	for i := 0; i < 3; i++ {
		_ = cb.Execute(func() error { return errors.New("fail") })
	}

	time.Sleep(150 * time.Millisecond)
	_ = cb.Execute(func() error { return nil })

	expected := []string{
		"CLOSED->OPEN",
		"OPEN->HALF_OPEN",
		"HALF_OPEN->CLOSED",
	}
	if len(stateChanges) != len(expected) {
		t.Fatalf("期望%d次状态变化，实际%d次: %v", len(expected), len(stateChanges), stateChanges)
	}
	for i := range expected {
		if stateChanges[i] != expected[i] {
			t.Errorf("第%d次状态变化期望%s，实际%s", i, expected[i], stateChanges[i])
		}
	}
}

// TestCircuitBreaker_FailureRate 测试基于失败率的熔断
func TestCircuitBreaker_FailureRate(t *testing.T) {
	cb := NewCircuitBreaker("test", Config{
		Interval: time.Hour,
		Timeout:  30 * time.Second,
		ReadyToTrip: func(counts Counts) bool {
			return counts.Requests >= 10 && counts.FailureRate() > 0.5
		},
	})

	// 4次成功，6次失败
	for i := 0; i < 10; i++ {
		index := i
		_ = cb.Execute(func() error {
			if index < 4 {
				return nil
			}
			return errors.New("fail")
		})
	}

	if cb.State() != StateOpen {
		t.Errorf("期望状态为OPEN（失败率超过50%%），实际%s", cb.State())
	}
}

// TestCircuitBreaker_IsSuccessful 测试“未命中”类错误不计入失败
func TestCircuitBreaker_IsSuccessful(t *testing.T) {
	cb := NewCircuitBreaker("cache-redis", Config{
		Timeout:     30 * time.Second,
		ReadyToTrip: tripAfter(2),
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, errNotFound)
		},
	})

	for i := 0; i < 10; i++ {
		err := cb.Execute(func() error { return errNotFound })
		if !errors.Is(err, errNotFound) {
			t.Fatalf("业务错误应原样返回，实际%v", err)
		}
	}

	if cb.State() != StateClosed {
		t.Errorf("未命中不应触发熔断，实际%s", cb.State())
	}
	if counts := cb.Counts(); counts.TotalFailures != 0 {
		t.Errorf("期望失败0次，实际%d次", counts.TotalFailures)
	}
}

// TestCircuitBreaker_Defaults 测试零值配置使用默认策略
func TestCircuitBreaker_Defaults(t *testing.T) {
	cb := NewCircuitBreaker("defaults", Config{Timeout: time.Minute})

	for i := 0; i < 4; i++ {
		_ = cb.Execute(func() error { return errors.New("fail") })
	}
	if cb.State() != StateClosed {
		t.Fatalf("连续失败4次不应熔断，实际%s", cb.State())
	}

	_ = cb.Execute(func() error { return errors.New("fail") })
	if cb.State() != StateOpen {
		t.Errorf("连续失败5次应熔断，实际%s", cb.State())
	}
}

// TestCircuitBreaker_FlakyBackend 模拟远程缓存短暂不可用后恢复
func TestCircuitBreaker_FlakyBackend(t *testing.T) {
	calls, failFirst := 0, 5
	get := func() error {
		calls++
		if calls <= failFirst {
			return errors.New("dial tcp: connection refused")
		}
		return nil
	}

	cfg := DefaultConfig()
	cfg.Timeout = 200 * time.Millisecond
	cb := NewCircuitBreaker("cache-redis", cfg)

	for i := 0; i < 10; i++ {
		_ = cb.Execute(get)
	}
	if calls != 5 {
		t.Errorf("期望实际调用5次，实际调用%d次", calls)
	}

	time.Sleep(250 * time.Millisecond)

	if err := cb.Execute(get); err != nil {
		t.Errorf("半开状态下期望成功，实际失败: %v", err)
	}
	if cb.State() != StateClosed {
		t.Errorf("期望状态恢复为CLOSED，实际%s", cb.State())
	}
}

func BenchmarkCircuitBreaker(b *testing.B) {
	cb := NewCircuitBreaker("bench", DefaultConfig())

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = cb.Execute(func() error { return nil })
	}
}
