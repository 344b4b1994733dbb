package chat

import "lectern/internal/usecase"

// columnLayout is the width partition of the three UI surfaces. A zero
// width means the surface is hidden.
type columnLayout struct {
	chat   int
	panel  int
	viewer int
}

// computeLayout partitions the terminal width according to the origin rule:
//
//   - viewer open from the sources panel: the viewer fills everything the
//     panel does not occupy and the transcript is hidden — the user left the
//     conversation to study sources.
//   - viewer open from chat: the transcript stays visible and is pushed
//     aside by a fixed-width viewer; the panel, if also open, takes its
//     usual column.
//   - viewer closed: the panel, if open, takes its column next to the
//     transcript.
//
// On terminals too narrow for two columns the side surface replaces the
// transcript outright. Pure function; exercised with synthetic widths in
// tests.
func computeLayout(total int, viewerOpen bool, origin usecase.Origin, panelOpen bool, panelW, viewerW int) columnLayout {
	if panelW > total/2 {
		panelW = total / 2
	}
	if viewerW > total/2 {
		viewerW = total / 2
	}

	switch {
	case viewerOpen && origin == usecase.OriginSourcesPanel:
		if !panelOpen {
			return columnLayout{viewer: total}
		}
		return columnLayout{panel: panelW, viewer: total - panelW}

	case viewerOpen: // origin == usecase.OriginChat
		rest := total - viewerW
		if panelOpen {
			rest -= panelW
		}
		if rest < minChatWidth {
			// Too narrow to keep the conversation on screen.
			if panelOpen {
				return columnLayout{panel: panelW, viewer: total - panelW}
			}
			return columnLayout{viewer: total}
		}
		l := columnLayout{chat: rest, viewer: viewerW}
		if panelOpen {
			l.panel = panelW
		}
		return l

	case panelOpen:
		rest := total - panelW
		if rest < minChatWidth {
			return columnLayout{panel: total}
		}
		return columnLayout{chat: rest, panel: panelW}

	default:
		return columnLayout{chat: total}
	}
}

// minChatWidth is the narrowest transcript column worth rendering.
const minChatWidth = 30
