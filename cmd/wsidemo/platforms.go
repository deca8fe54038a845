package main

import _ "github.com/gogpu/wsi/platform/headless"
