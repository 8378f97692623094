package policy

import (
	"math/rand/v2"

	"simple/internal/domain"
	"simple/internal/execution"
)

// Identity executes everything in preparation order
var Identity = execution.ScheduleFunc(func(tests []domain.PreparedTest) ([]domain.PreparedTest, error) {
	return tests, nil
})

// FilterByName keeps the tests whose "Class.test" name matches pattern
func FilterByName(pattern string) execution.Scheduler {
	return execution.ScheduleFunc(func(tests []domain.PreparedTest) ([]domain.PreparedTest, error) {
		filtered := make([]domain.PreparedTest, 0, len(tests))
		for _, t := range tests {
			if MatchName(t.Properties.String(), pattern) {
				filtered = append(filtered, t)
			}
		}
		return filtered, nil
	})
}

// OnlyTests keeps the tests in the given set, e.g. the failures of the last run
func OnlyTests(keep map[domain.Properties]struct{}) execution.Scheduler {
	return execution.ScheduleFunc(func(tests []domain.PreparedTest) ([]domain.PreparedTest, error) {
		filtered := make([]domain.PreparedTest, 0, len(keep))
		for _, t := range tests {
			if _, ok := keep[t.Properties]; ok {
				filtered = append(filtered, t)
			}
		}
		return filtered, nil
	})
}

// Interleave distributes the tests of each class round-robin across the plan
// so concurrent workers do not all pick tests of the same class
var Interleave = execution.ScheduleFunc(func(tests []domain.PreparedTest) ([]domain.PreparedTest, error) {
	var classes []string
	byClass := make(map[string][]domain.PreparedTest)
	for _, t := range tests {
		name := t.Properties.ClassName
		if _, ok := byClass[name]; !ok {
			classes = append(classes, name)
		}
		byClass[name] = append(byClass[name], t)
	}

	planned := make([]domain.PreparedTest, 0, len(tests))
	for round := 0; len(planned) < len(tests); round++ {
		for _, name := range classes {
			if round < len(byClass[name]) {
				planned = append(planned, byClass[name][round])
			}
		}
	}
	return planned, nil
})

// Shuffle randomises the order with a fixed seed so a run can be repeated
func Shuffle(seed uint64) execution.Scheduler {
	return execution.ScheduleFunc(func(tests []domain.PreparedTest) ([]domain.PreparedTest, error) {
		planned := make([]domain.PreparedTest, len(tests))
		copy(planned, tests)
		r := rand.New(rand.NewPCG(seed, seed))
		r.Shuffle(len(planned), func(i, j int) {
			planned[i], planned[j] = planned[j], planned[i]
		})
		return planned, nil
	})
}

// Chain applies schedulers left to right
func Chain(schedulers ...execution.Scheduler) execution.Scheduler {
	return execution.ScheduleFunc(func(tests []domain.PreparedTest) ([]domain.PreparedTest, error) {
		planned := tests
		for _, s := range schedulers {
			var err error
			planned, err = s.Schedule(planned)
			if err != nil {
				return nil, err
			}
		}
		return planned, nil
	})
}
