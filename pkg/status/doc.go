/*
Package status holds the outcome model of a batch: per-item results, the run
summary, the error classes and the reporter that logs progress.

	+------------------+        +-----------------+
	| OperationResult  | -----> |   RunSummary    |
	| (one per item)   |        | (derived once)  |
	+--------+---------+        +-----------------+
	         |
	         v
	+------------------+
	|  Reporter        |
	|  (log + progress)|
	+------------------+

🎯 Purpose:
- Classify failures so callers can match them with errors.Is
- Track results in candidate order
- Format progress and result messages for the logger

⚠️ Error classes:
- ErrConfiguration / ErrUserInput: fatal, returned before scanning
- ErrScan: counted as skipped directories, never fatal
- ErrTransform / ErrCollision / ErrExecution: recorded on the item
- ErrBatchFailed: returned after a batch with at least one failure

🔍 Example:

	mgr := status.New()
	mgr.StartOperation(ctx, len(candidates))
	mgr.Track(ctx, status.OperationResult{Index: 1, Source: src, Status: status.StatusSuccess})
	mgr.FinishOperation(ctx)

	summary := status.Summarize(mgr.Results(ctx), time.Since(start))
*/
package status
