// Package driver implements the capability.VersionSource interface against
// the NVIDIA driver's userland surfaces.
//
// Two query mechanisms are provided: SMISource shells out to nvidia-smi, and
// ProcSource reads the kernel module's sysfs/procfs version files. Chain
// stacks them so hosts with only one surface still answer. Every failure is
// wrapped in a QueryError whose Kind feeds the checker's undetermined-cause
// taxonomy; a missing driver is an answer here, not a fault.
//
// The package also carries the NVENC API floor table, which translates
// between driver builds and the encoder API revisions they expose.
package driver
