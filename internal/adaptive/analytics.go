package adaptive

import (
	"sort"

	"github.com/felixgeelhaar/pacer/internal/domain"
)

// ProgressReport aggregates a user's difficulty trajectory across all
// modules they have touched.
type ProgressReport struct {
	UserID        string            `json:"user_id"`
	Observations  int               `json:"observations"`
	Adjustments   int               `json:"adjustments"`
	AvgScore      float64           `json:"avg_score"`
	Model         *domain.UserModel `json:"model,omitempty"`
	Modules       []ModuleProgress  `json:"modules"`
	Struggling    int               `json:"struggling_modules"`
	Excelling     int               `json:"excelling_modules"`
}

// ModuleProgress summarizes one (user, module) pair.
type ModuleProgress struct {
	ModuleID     string      `json:"module_id"`
	Difficulty   float64     `json:"difficulty"`
	Observations int         `json:"observations"`
	AvgScore     float64     `json:"avg_score"`
	Zone         domain.Zone `json:"zone"`
	Trend        string      `json:"trend"` // "rising", "falling", "steady", "new"
}

// Report builds a progress report for a user from the controller's
// in-memory state. Users with no observations get an empty report.
func (s *Service) Report(userID string) *ProgressReport {
	s.mu.RLock()
	defer s.mu.RUnlock()

	report := &ProgressReport{UserID: userID}

	if model, ok := s.models[userID]; ok {
		copied := *model
		report.Model = &copied
	}

	var scoreSum float64
	for key, window := range s.windows {
		if key.UserID != userID {
			continue
		}

		scores := window.Values()
		var moduleSum float64
		for _, v := range scores {
			moduleSum += v
		}

		mp := ModuleProgress{
			ModuleID:     key.ModuleID,
			Difficulty:   s.currentLocked(key),
			Observations: len(scores),
			Zone:         s.lastZone[key],
			Trend:        difficultyTrend(s.history[key]),
		}
		if len(scores) > 0 {
			mp.AvgScore = moduleSum / float64(len(scores))
		}

		switch mp.Zone {
		case domain.ZoneTooHard:
			report.Struggling++
		case domain.ZoneTooEasy:
			report.Excelling++
		}

		report.Observations += len(scores)
		report.Adjustments += len(s.history[key])
		scoreSum += moduleSum
		report.Modules = append(report.Modules, mp)
	}

	if report.Observations > 0 {
		report.AvgScore = scoreSum / float64(report.Observations)
	}

	sort.Slice(report.Modules, func(i, j int) bool {
		return report.Modules[i].ModuleID < report.Modules[j].ModuleID
	})

	return report
}

// difficultyTrend compares the newest adjustments to describe where
// difficulty is heading for a module.
func difficultyTrend(history []*domain.DifficultyAdjustment) string {
	if len(history) < 2 {
		return "new"
	}

	window := history
	if len(window) > 3 {
		window = window[len(window)-3:]
	}

	delta := window[len(window)-1].New - window[0].Previous
	switch {
	case delta > 0.02:
		return "rising"
	case delta < -0.02:
		return "falling"
	default:
		return "steady"
	}
}
