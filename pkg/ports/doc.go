/*
Package ports defines the driven ports (interfaces) for the Menuflow engine.

These interfaces decouple the core logic from external collaborators, allowing
the engine to work with various template sources, position stores, and lock
providers.

# Key Interfaces

  - TemplateSource: Supplies the serialized graph the registry loads per language.
  - PositionStore: Persists per-user conversation positions between turns.
  - DistributedLocker: Provides distributed locking for concurrent turns from one user.
*/
package ports
