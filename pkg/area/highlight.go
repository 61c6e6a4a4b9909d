package area

// SelectionSource is the selection state an Area mirrors onto its views.
type SelectionSource interface {
	OnChange(fn func(selected []string)) (remove func())
	Remove(id string)
}

// Highlight marks the views of selected nodes and drops removed nodes from
// the selection. The returned func detaches both listeners.
func (a *Area) Highlight(sel SelectionSource) (detach func()) {
	offChange := sel.OnChange(a.markSelected)
	offRemove := a.OnNodeRemoved(sel.Remove)
	return func() {
		offChange()
		offRemove()
	}
}

func (a *Area) markSelected(selected []string) {
	set := make(map[string]struct{}, len(selected))
	for _, id := range selected {
		set[id] = struct{}{}
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	for id, v := range a.views {
		_, v.Selected = set[id]
	}
}
