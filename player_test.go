package main

import "testing"

func TestPlayerLoops(t *testing.T) {
	p := &player{}
	p.load(&sound{buf: []int16{1, 1, 2, 2, 3, 3}})

	out := make([]int16, 8)
	p.Fill(out)

	want := []int16{1, 1, 2, 2, 3, 3, 1, 1}
	for i := range want {
		if out[i] != want[i] {
			t.Fatalf("sample %d: want %v, got %v", i, want[i], out[i])
		}
	}

	p.Fill(out[:4])
	if out[0] != 2 || out[2] != 3 {
		t.Errorf("loop position not carried across fills: %v", out[:4])
	}
}

func TestPlayerStoppedLeavesBufferAlone(t *testing.T) {
	p := &player{}
	p.load(&sound{buf: []int16{5, 5}})
	p.setPlaying(false)

	out := make([]int16, 4)
	p.Fill(out)
	for i, v := range out {
		if v != 0 {
			t.Fatalf("sample %d: want silence, got %v", i, v)
		}
	}

	p.setPlaying(true)
	p.Fill(out)
	if out[0] != 5 {
		t.Errorf("resume should pick up the loaded sound, got %v", out[0])
	}
}

func TestToInt16(t *testing.T) {
	tests := []struct {
		in   float64
		want int16
	}{
		{0, 0},
		{0.5, 16384},
		{-0.5, -16384},
		{1.5, 32767},
		{-1.5, -32768},
	}
	for _, test := range tests {
		if got := toInt16(test.in); got != test.want {
			t.Errorf("toInt16(%v): want %v, got %v", test.in, test.want, got)
		}
	}
}
