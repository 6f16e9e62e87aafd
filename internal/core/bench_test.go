package core

import "testing"

func benchmarkBroadcast(b *testing.B, recipients int) {
	svc := newTestService()
	key, admin := svc.CreateRoom()

	subs := make([]*Subscription, 0, recipients)
	for i := 0; i < recipients; i++ {
		sub, err := svc.Subscribe(key, "")
		if err != nil {
			b.Fatalf("subscribe: %v", err)
		}
		subs = append(subs, sub)
	}

	// Drain all but the first recipient to avoid sink eviction mid-run.
	target := subs[0]
	for _, sub := range subs[1:] {
		go func(s *Subscription) {
			for range s.Events() {
			}
		}(sub)
	}

	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		if _, err := svc.SendMessage(key, admin, "payload", 0); err != nil {
			b.Fatalf("send: %v", err)
		}
		<-target.Events()
	}
}

func BenchmarkBroadcast_10(b *testing.B)  { benchmarkBroadcast(b, 10) }
func BenchmarkBroadcast_100(b *testing.B) { benchmarkBroadcast(b, 100) }
func BenchmarkBroadcast_500(b *testing.B) { benchmarkBroadcast(b, 500) }
