package ui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/squall/internal/models"
)

var (
	_ list.Item = resultItem{}
	_ list.Item = depthItem{}
)

// resultItem wraps [models.ResultSummary] to implement [list.Item].
type resultItem struct {
	summary models.ResultSummary
}

func (i resultItem) FilterValue() string { return i.summary.Topic }
func (i resultItem) Title() string       { return i.summary.Topic }
func (i resultItem) Description() string {
	desc := i.summary.Summary
	if i.summary.CompletedTime != nil {
		when := i.summary.CompletedTime.Format(time.DateOnly)
		if desc == "" {
			return fmt.Sprintf("completed %s", when)
		}
		desc = fmt.Sprintf("%s • %s", when, desc)
	}
	return desc
}

// depthItem wraps [models.Depth] to implement [list.Item].
type depthItem struct {
	depth models.Depth
}

func (i depthItem) FilterValue() string { return i.depth.String() }
func (i depthItem) Title() string       { return i.depth.String() }
func (i depthItem) Description() string {
	switch i.depth {
	case models.DepthBasic:
		return "a quick survey of the topic"
	case models.DepthStandard:
		return "a balanced article with sources"
	case models.DepthDeep:
		return "an exhaustive report, slower to produce"
	default:
		return ""
	}
}
