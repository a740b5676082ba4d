// Package platform resolves the target platform of an image build.
//
// A platform decides two things at once: which kernel configuration is
// installed, and how many root filesystem images the build must produce.
// Both are read from a single policy table so that they cannot drift apart.
//
//	p, err := platform.Resolve(arg)
//	if err != nil {
//	    return err // *platform.ValidationError
//	}
//	fmt.Println(p.KernelConfig, p.Replicas)
package platform
