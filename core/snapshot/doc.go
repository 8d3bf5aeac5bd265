// Package snapshot paginates reconciled streets into JSON pages and manages
// the snapshot folders in object storage.
//
// # Pages
//
// Paginate splits the street records of a run into fixed-size pages. Every
// page carries a metadata block (code, from, pageSize, resultCount,
// totalResults) and a createdAt timestamp shared by all pages of the run.
// Pages are named <prefix>_<MM_dd_yyyy>_Part_<n>.json with n starting at 1.
//
// # Folders
//
// Writer keeps two folders in the bucket:
//   - current: the pages of the latest run
//   - archive: the pages of the previous run(s)
//
// Before a run writes its pages, everything under current is moved to archive
// (overwriting same-named files) and archived files older than the retention
// window are purged. When a page fails to write, the files of the current run
// written within the cleanup window are removed so that a half-written run is
// not mistaken for a complete one.
//
// # Usage
//
//	w := snapshot.NewWriter(client, cfg.Storage.Bucket, cfg.Snapshot, logger)
//	res, err := w.Write(ctx, snapshot.FromResult(result))
package snapshot
