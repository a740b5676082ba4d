// Provides host locations used by bootforge outside the workspace.
//
// Configuration lookup and build logs follow XDG conventions on Linux and
// platform-native conventions elsewhere. Workspace paths (sources, configs,
// outputs) are not handled here; see the config package.
package paths
