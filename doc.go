// Package anongo provides an embedded data anonymization engine for Go.
//
// Anongo transforms tabular microdata so that configurable privacy models
// hold, while searching the space of generalization hierarchies for the
// transformation with the least information loss. It implements the
// FLASH lattice search with equivalence-class snapshots, row suppression
// and a pluggable set of privacy and quality models.
//
// # Quick Start
//
//	handle, _ := dataset.FromRows(header, rows)
//	handle.Definition().
//	    SetRole("age", core.RoleQuasiIdentifying).
//	    SetHierarchy("age", ageHierarchy).
//	    SetRole("disease", core.RoleSensitive)
//
//	cfg := config.New().Require(criteria.NewKAnonymity(3))
//	cfg.SuppressionLimit = 0.02
//
//	a := anongo.New()
//	result, err := a.Anonymize(ctx, handle, cfg)
//	if err != nil {
//	    // errors.Is(err, anongo.ErrNoSolution) etc.
//	}
//	fmt.Println(result.Transformation(), result.Quality())
//
// # Privacy Models
//
// Class-based models are AND-combined and applied per equivalence class:
//
//   - k-anonymity
//   - distinct-, entropy- and recursive-(c,l)-diversity
//   - equal- and ordered-distance t-closeness
//   - d-presence and k-map (against a research subset)
//   - d-disclosure privacy
//
// Sample-based models (average reidentification risk) inspect the whole
// grouping and may demand additional suppression.
//
// # Quality Models
//
// Transformations are scored by a pluggable quality model; lower is
// better. Available models: loss (default), precision, discernibility,
// average class size and height.
//
// # Search
//
// The exact FLASH search exploits monotonicity to classify whole
// sub-lattices without checking every node. For solution spaces beyond a
// configurable threshold a time-bounded greedy search takes over.
//
// # Key Features
//
//   - Dictionary-encoded columns with per-run value ids
//   - Snapshot history so coarser transformations reuse finer groupings
//   - LZ4/zstd snapshot compression
//   - Cooperative cancellation via context
//   - CSV, S3, MinIO and DynamoDB data sources
package anongo
