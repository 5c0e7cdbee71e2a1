/*
Package operation implements the execution engine and the four batch
operations: rename, compress, convert and clean.

	+-----------+     +-----------+     +-----------+     +-----------+
	|   Scan    | --> |  Target   | --> |  Resolve  | --> |  Apply    |
	| (scanner) |     | (per op)  |     | (policy)  |     | (per op)  |
	+-----------+     +-----------+     +-----------+     +-----------+
	                                                            |
	                                                            v
	                                                     OperationResult

🎯 Purpose:
- Drive one operation over the sorted candidates of one scan
- Apply collision policies the same way for every operation
- Record exactly one result per candidate, never aborting mid-batch

🔄 Flow:
 1. Validate the operation (configuration errors stop here)
 2. Let the operation narrow the scan (ScanAdjuster) and scan
 3. Let the operation reorder candidates (Preparer), e.g. clean empty dirs
 4. For each candidate: Target → collision policy → confirm → Apply
 5. Summarise; a batch with failures returns status.ErrBatchFailed

⚡ Modes:
- ModeExecute applies every item
- ModePreview computes destinations only; a taken destination is reported as
  a collision instead of being disambiguated
- ModeInteractive asks a Confirmer before each item

🛑 Cancellation:
The shared progress.State and the context are checked before every item. The
scan checks them at its own polling points. Cancelled items are recorded as
skipped and the summary is marked cancelled; it is not an error.

🔍 Example:

	engine, err := operation.New(operation.Options{
		Scan: scan.Config{Root: ".", Pattern: "*.txt"},
		Mode: operation.ModePreview,
	})
	if err != nil {
		return err
	}

	run, err := engine.Run(ctx, operation.NewRenameOperation(&rename.Rule{Prefix: "x_"}, false))
*/
package operation
