// Package config describes the workspace an image is built in.
//
// A workspace holds the inputs of a build (source trees, configuration
// files, test projects, the overlay skeleton) and receives its outputs. The
// built-in [Default] layout matches the conventional tree:
//
//	buildroot/            root filesystem build tool
//	buildroot-config      root filesystem configuration
//	buildroot-overlay/    overlay skeleton merged into the image
//	riscv-linux/          kernel source
//	linux-config-<name>   kernel configuration per platform
//	riscv-pk/             bootloader (payload builder) source
//	tests/<project>/      test utility projects
//
// Any path can be overridden from a YAML layout file, which is decoded into a
// [Marshall] and sealed into an immutable-by-convention [Layout] whose paths
// are absolute.
package config
