package scenario

import "testing"

func TestPowerTierRoundTrip(t *testing.T) {
	tests := []struct {
		in     string
		tier   PowerTier
		wantKW float64
	}{
		{"low", TierLow, 20},
		{"medium", TierMedium, 40},
		{"high", TierHigh, 55},
	}

	for _, tt := range tests {
		got, err := ParsePowerTier(tt.in)
		if err != nil {
			t.Fatalf("ParsePowerTier(%q): %v", tt.in, err)
		}
		if got != tt.tier || got.String() != tt.in || got.KW() != tt.wantKW {
			t.Fatalf("tier %q: got %v/%q/%v", tt.in, got, got.String(), got.KW())
		}
	}

	if _, err := ParsePowerTier("turbo"); err == nil {
		t.Fatal("expected error for unknown tier")
	}
	if PowerTier(99).Valid() {
		t.Fatal("arbitrary tier must be invalid")
	}
}

func newTestJob(opts ...func(*Job)) Job {
	j := Job{
		StartHour:     9,
		StartMin:      30,
		DurationHours: 2,
		Tier:          TierMedium,
		NumRacks:      10,
	}
	for _, opt := range opts {
		opt(&j)
	}
	return j
}

func TestAddJobAssignsIDs(t *testing.T) {
	s := newTestScenario(t)

	a, err := s.AddJob(newTestJob())
	assertError(t, err, nil)
	b, err := s.AddJob(newTestJob(func(j *Job) { j.StartHour = 14 }))
	assertError(t, err, nil)

	if a.ID == b.ID {
		t.Fatalf("jobs share ID %d", a.ID)
	}
}

func TestAddJobValidation(t *testing.T) {
	tests := []struct {
		name string
		opt  func(*Job)
		want error
	}{
		{"valid", func(j *Job) {}, nil},
		{"negative hour", func(j *Job) { j.StartHour = -1 }, ErrInvalidJobStart},
		{"hour past midnight", func(j *Job) { j.StartHour = 24 }, ErrInvalidJobStart},
		{"invalid minute", func(j *Job) { j.StartMin = 60 }, ErrInvalidJobStart},
		{"too short", func(j *Job) { j.DurationHours = 0.25 }, ErrInvalidJobDuration},
		{"too long", func(j *Job) { j.DurationHours = 25 }, ErrInvalidJobDuration},
		{"unknown tier", func(j *Job) { j.Tier = TierUnknown }, ErrInvalidPowerTier},
		{"zero racks", func(j *Job) { j.NumRacks = 0 }, ErrInvalidJobRacks},
		{"too many racks", func(j *Job) { j.NumRacks = 61 }, ErrInvalidJobRacks},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestScenario(t)
			_, err := s.AddJob(newTestJob(tt.opt))
			assertError(t, err, tt.want)
		})
	}
}

func TestJobsSortedByStartTime(t *testing.T) {
	s := newTestScenario(t)

	for _, h := range []int{14, 6, 22, 9} {
		if _, err := s.AddJob(newTestJob(func(j *Job) { j.StartHour = h })); err != nil {
			t.Fatalf("AddJob: %v", err)
		}
	}

	jobs := s.Jobs()
	for i := 1; i < len(jobs); i++ {
		if jobs[i].StartTime() < jobs[i-1].StartTime() {
			t.Fatalf("jobs out of order: %v before %v", jobs[i-1].StartTime(), jobs[i].StartTime())
		}
	}
}

func TestRemoveJob(t *testing.T) {
	s := newTestScenario(t)

	j, _ := s.AddJob(newTestJob())
	assertError(t, s.RemoveJob(j.ID), nil)
	assertError(t, s.RemoveJob(j.ID), ErrJobNotFound)
	if len(s.Jobs()) != 0 {
		t.Fatalf("expected empty schedule, got %d jobs", len(s.Jobs()))
	}
}

func TestClearJobs(t *testing.T) {
	s := newTestScenario(t)

	s.AddJob(newTestJob())
	s.AddJob(newTestJob(func(j *Job) { j.StartHour = 12 }))
	s.ClearJobs()

	if len(s.Jobs()) != 0 {
		t.Fatal("expected empty schedule after clear")
	}
}

func TestJobDerivedFields(t *testing.T) {
	j := newTestJob()

	if j.StartTime() != 9.5 {
		t.Fatalf("StartTime = %v, want 9.5", j.StartTime())
	}
	if j.EndTime() != 11.5 {
		t.Fatalf("EndTime = %v, want 11.5", j.EndTime())
	}
	if j.TotalPowerKW() != 400 {
		t.Fatalf("TotalPowerKW = %v, want 400", j.TotalPowerKW())
	}
}

func TestJobsDoNotAffectEngine(t *testing.T) {
	s := newTestScenario(t)
	before := s.Get()

	s.AddJob(newTestJob(func(j *Job) { j.Tier = TierHigh }))

	if s.Get() != before {
		t.Fatal("scheduling a job must not change the steady-state result")
	}
}
