package scheduler

// ExportedRunReport exposes the private runReport method for external tests.
func (s *Scheduler) ExportedRunReport() {
	s.runReport()
}
