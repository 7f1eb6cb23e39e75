// Package navigation resolves, opens, tracks and tears down presentation
// sessions: a surface (what the user sees) bound to a logic instance (the
// view-model holding state and behaviour).
//
// # Resolution
//
// Registry maps a Discriminator to a Descriptor. Discriminators live in three
// separate namespaces: entity kind (thing.ClassKind), human-readable name, and
// surface identity. Descriptors carry typed factory funcs, so registration is
// an explicit table built at compile time rather than reflection over type
// names. When only a logic instance is at hand, ResolveSurfaceIdentity maps its
// identity ("<Root>.ViewModels.<Name>ViewModel") to the identity of the surface
// registered for it ("<Root>.Views.<Name>").
//
// # Sessions
//
// Factory builds a Session from a Descriptor. Each Session runs the state
// machine Created -> Open -> Closing -> Closed; Close is idempotent and performs
// the teardown (detach the surface, dispose the logic) exactly once.
//
// Three controllers own sessions:
//   - ModalController: blocking dialogs; nested dialogs unwind in LIFO order.
//   - FloatingRegistry: non-blocking dialogs, at most one per thing ID.
//   - Dock: the ordered panel collection; removal from the collection, by any
//     path, triggers the panel's teardown and a Closed lifecycle event.
//
// # Threading
//
// Floating and dock state is guarded by mutexes, but controllers never hold a
// lock while calling into surfaces, logic instances or bus subscribers.
// ModalController.Navigate blocks until the user dismisses the dialog, so it
// must run off the UI event loop (inside a tea.Cmd in the shell).
package navigation
