//go:build windows

package strategy

func platformPresenter(PresenterOptions) (Presenter, error) {
	return NewWindowsPresenter(AppName, ""), nil
}

func newWindowsPresenter() (Presenter, error) {
	return NewWindowsPresenter(AppName, ""), nil
}
