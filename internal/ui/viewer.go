package ui

import "simple/internal/domain"

// Viewer displays stored run results
type Viewer interface {
	View(output *domain.RunOutput) error
}

// OutputSaver persists a modified run output
type OutputSaver interface {
	SaveOutput(output *domain.RunOutput) error
}
