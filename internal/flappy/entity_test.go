package flappy

import "testing"

func TestEntityAdvanceAppliesGravityBeforePosition(t *testing.T) {
	e := newEntity(testConfig())

	velocities := []float64{0, 3.25, -6, 12}
	for _, v := range velocities {
		e.Vel = v
		e.Y = 100
		e.Advance(1)

		wantVel := v + 0.5
		if e.Vel != wantVel {
			t.Errorf("vel after advance from %g = %g, expected %g", v, e.Vel, wantVel)
		}
		if e.Y != 100+wantVel {
			t.Errorf("y after advance from vel %g = %g, expected %g", v, e.Y, 100+wantVel)
		}
	}
}

func TestEntityImpulseOverwritesVelocity(t *testing.T) {
	e := newEntity(testConfig())

	for _, v := range []float64{0, 25, -25, -8, 0.001} {
		e.Vel = v
		e.Impulse()
		if e.Vel != -8 {
			t.Errorf("impulse from %g gave %g, expected -8", v, e.Vel)
		}
	}
}

func TestEntityStartsAtMidpoint(t *testing.T) {
	e := newEntity(testConfig())
	if e.X != 50 || e.Y != 300 || e.Vel != 0 || e.Width != 34 || e.Height != 24 {
		t.Errorf("unexpected initial entity %+v", e)
	}
}

func TestEntityNoClamping(t *testing.T) {
	e := newEntity(testConfig())
	e.Vel = 1000
	e.Advance(1)
	if e.Y != 300+1000.5 {
		t.Errorf("entity should not be clamped, y = %g", e.Y)
	}
}
