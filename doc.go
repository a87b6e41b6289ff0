// Package mkprebuilt builds library packages for several targets and deploys
// the resulting archives, dependency metadata and shared objects into the
// prebuilt directory of another project.
//
// A deployment is a [gomkore.Project]. Its "sync" goal depends on one
// [BuildOp] per distinct target, the reset of the destination directory, and
// the copy actions of all profiles. The build output directory is removed by
// the separate clean goal that [Syncer] always runs after "sync":
//
//	build ─▶ rm -rf dest ─▶ mkdir -p dest/<profile>/deps ─▶ copy ─▶ sync
//	rm -rf build-output
//
// By default failing actions do not stop a deployment. They are traced and
// listed in the [Report]. Use [gomkore.StopOnFailure] to stop at the first
// failure.
package mkprebuilt
