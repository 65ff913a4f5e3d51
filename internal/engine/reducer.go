package engine

import "github.com/dm/aadash/internal/model"

// Reduce derives the view model from the filter selection, the latest
// accepted data and the preflight outcome. It has no side effects: equal
// inputs always give equal results.
func Reduce(snap model.FilterSnapshot, data model.ConsolidatedData, preflight PreflightState) model.ViewModel {
	switch preflight {
	case PreflightFailed:
		return model.ViewModel{Mode: model.ModeError}
	case PreflightPending:
		return model.ViewModel{Mode: model.ModeLoading}
	}

	vm := model.ViewModel{
		Modules:   firstN(data.Modules, model.ListLimit),
		Templates: firstN(data.Templates, model.ListLimit),
	}

	if snap.AllClustersSelected() {
		vm.Mode = model.ModeAggregate
		vm.ChartData = data.BarSeries
	} else {
		vm.Mode = model.ModePerCluster
		vm.ChartData = data.LineSeries
	}
	if len(vm.ChartData) == 0 {
		vm.Mode = model.ModeLoading
		vm.ChartData = nil
	}
	return vm
}

// firstN returns at most n leading elements of s.
func firstN[T any](s []T, n int) []T {
	if len(s) <= n {
		return s
	}
	return s[:n:n]
}
