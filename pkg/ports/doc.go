/*
Package ports defines the driven ports (interfaces) used around the execution engine.

The engine itself performs no I/O. These interfaces let a consumer checkpoint runs
to different storage backends and guard sessions against concurrent resumption.

# Key Interfaces

  - SnapshotStore: persists and loads run checkpoints (domain.Snapshot).
  - Locker: grants exclusive ownership of a session while it runs.
*/
package ports
