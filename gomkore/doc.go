// Package gomkore implements the core model of mkprebuilt for the
// representation of deployable projects. The core concepts are [Project],
// [Goal] and [Action]. A [Builder] brings goals up to date by running the
// operations of their actions, strictly one after the other and premises
// first.
//
// Unlike make-like tools, gomkore does not check artefact timestamps. Every
// action that is reached during a build is run. What happens when an action
// fails is decided by the builder's [FailMode].
package gomkore
