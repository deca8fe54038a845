//go:build linux || freebsd || netbsd

package main

import _ "github.com/gogpu/wsi/platform/x11"
