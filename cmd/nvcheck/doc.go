// Command nvcheck verifies that the installed NVIDIA driver satisfies the
// capability requirements of an encode pipeline, without loading any NVIDIA
// library into the calling process.
package main
