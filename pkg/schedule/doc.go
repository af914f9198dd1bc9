// Package schedule runs exports on cron schedules.
//
// Each configured job names a content type, a standard five-field cron
// expression and an optional look-back window. On every tick the job fetches
// records created within the window, builds the export and writes it to
// <output_dir>/<filename>-<YYYYmmdd-HHMMSS>.csv. Files are written to a
// temporary name and renamed, so readers never see a partial export.
//
//	s := schedule.NewScheduler(exporter, store, cfg.Schedule,
//	    schedule.WithObserver(collector))
//	if err := s.Start(ctx); err != nil {
//	    return err
//	}
//	defer s.Stop()
package schedule
