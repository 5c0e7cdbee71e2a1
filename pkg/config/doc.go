/*
Package config loads job files: a saved description of one batch run.

	            +-------------+
	            |     Job     |
	            | (one batch) |
	            +------+------+
	                   |
	      +------------+------------+
	      |            |            |
	+-----+----+ +-----+----+ +-----+----+
	|   JSON   | |   YAML   | |   HCL    |
	|  Parser  | |  Parser  | |  Parser  |
	+----------+ +----------+ +----------+

🎯 Purpose:
- Decode a job from JSON, YAML or HCL, picked by file extension
- Reject unknown fields in every format
- Check the job names exactly one operation and carries its block
- Turn the job into operation.Options plus the operation to run

🔄 Flow:
1. GetParser picks a registered parser for the file name
2. The parser decodes into Job
3. Load resolves a relative root against the job file directory
4. Validate checks the job shape; Options builds typed values whose own
   Validate methods run when the engine starts

HCL jobs can read the environment through env.NAME:

	operation = "clean"
	root      = "${env.HOME}/Downloads"

	clean {
	  mode = "temp"
	}

🔍 Example:

	job, err := config.Load(ctx, "photos.yaml")
	if err != nil {
		return err
	}

	opts, op, err := job.Options()
	if err != nil {
		return err
	}

	engine, err := operation.New(opts)
	if err != nil {
		return err
	}
	run, err := engine.Run(ctx, op)
*/
package config
