// Package state holds the only value shared between the bootstrap
// sequence and the front-end: the port the server was started on.
//
// A Port is created once by bootstrap with the allocated value and handed
// out by pointer; readers go through Get.
package state
