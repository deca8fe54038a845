// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

//go:build darwin

package appkit

import (
	"fmt"
	"sync"

	"github.com/ebitengine/purego"
	"github.com/ebitengine/purego/objc"
)

type cgPoint struct{ X, Y float64 }
type cgSize struct{ Width, Height float64 }
type nsRect struct {
	Origin cgPoint
	Size   cgSize
}

const (
	nsWindowStyleMaskTitled         = 1 << 0
	nsWindowStyleMaskClosable       = 1 << 1
	nsWindowStyleMaskMiniaturizable = 1 << 2
	nsWindowStyleMaskResizable      = 1 << 3

	nsBackingStoreBuffered = 2

	nsApplicationActivationPolicyRegular = 0

	nsTerminateCancel = 0

	nsEventModifierFlagOption  = 1 << 19
	nsEventModifierFlagCommand = 1 << 20

	nsEventMaskAny = ^uint64(0)
	nsUTF8Encoding = 4

	// Value of NSDefaultRunLoopMode.
	defaultRunLoopMode = "kCFRunLoopDefaultMode"
)

var (
	selAlloc                 = objc.RegisterName("alloc")
	selNew                   = objc.RegisterName("new")
	selRelease               = objc.RegisterName("release")
	selSharedApplication     = objc.RegisterName("sharedApplication")
	selSetActivationPolicy   = objc.RegisterName("setActivationPolicy:")
	selSetDelegate           = objc.RegisterName("setDelegate:")
	selFinishLaunching       = objc.RegisterName("finishLaunching")
	selActivateIgnoring      = objc.RegisterName("activateIgnoringOtherApps:")
	selSetMainMenu           = objc.RegisterName("setMainMenu:")
	selSetServicesMenu       = objc.RegisterName("setServicesMenu:")
	selNextEvent             = objc.RegisterName("nextEventMatchingMask:untilDate:inMode:dequeue:")
	selSendEvent             = objc.RegisterName("sendEvent:")
	selUpdateWindows         = objc.RegisterName("updateWindows")
	selDistantPast           = objc.RegisterName("distantPast")
	selDistantFuture         = objc.RegisterName("distantFuture")
	selDrain                 = objc.RegisterName("drain")
	selInitWithBytes         = objc.RegisterName("initWithBytes:length:encoding:")
	selInitWithContentRect   = objc.RegisterName("initWithContentRect:styleMask:backing:defer:")
	selSetReleasedWhenClosed = objc.RegisterName("setReleasedWhenClosed:")
	selCenter                = objc.RegisterName("center")
	selSetTitle              = objc.RegisterName("setTitle:")
	selMakeKeyAndOrderFront  = objc.RegisterName("makeKeyAndOrderFront:")
	selClose                 = objc.RegisterName("close")
	selContentView           = objc.RegisterName("contentView")
	selFrame                 = objc.RegisterName("frame")
	selBackingScaleFactor    = objc.RegisterName("backingScaleFactor")
	selInLiveResize          = objc.RegisterName("inLiveResize")
	selSetOpaque             = objc.RegisterName("setOpaque:")
	selSetBackgroundColor    = objc.RegisterName("setBackgroundColor:")
	selClearColor            = objc.RegisterName("clearColor")
	selSetWantsLayer         = objc.RegisterName("setWantsLayer:")
	selSetLayer              = objc.RegisterName("setLayer:")
	selSetContentsScale      = objc.RegisterName("setContentsScale:")
	selObject                = objc.RegisterName("object")
	selAddItem               = objc.RegisterName("addItem:")
	selSetSubmenu            = objc.RegisterName("setSubmenu:")
	selSeparatorItem         = objc.RegisterName("separatorItem")
	selInitWithTitle         = objc.RegisterName("initWithTitle:action:keyEquivalent:")
	selSetKeyEquivalentMask  = objc.RegisterName("setKeyEquivalentModifierMask:")

	selOrderFrontAbout = objc.RegisterName("orderFrontStandardAboutPanel:")
	selHide            = objc.RegisterName("hide:")
	selHideOthers      = objc.RegisterName("hideOtherApplications:")
	selUnhideAll       = objc.RegisterName("unhideAllApplications:")
	selTerminate       = objc.RegisterName("terminate:")

	selDidFinishLaunching = objc.RegisterName("applicationDidFinishLaunching:")
	selDidBecomeActive    = objc.RegisterName("applicationDidBecomeActive:")
	selShouldTerminate    = objc.RegisterName("applicationShouldTerminate:")
	selWindowShouldClose  = objc.RegisterName("windowShouldClose:")
	selWindowDidResize    = objc.RegisterName("windowDidResize:")
	selWindowDidEndLive   = objc.RegisterName("windowDidEndLiveResize:")
	selWindowDidBacking   = objc.RegisterName("windowDidChangeBackingProperties:")
)

func class(name string) objc.ID { return objc.ID(objc.GetClass(name)) }

var frameworks = sync.OnceValue(func() error {
	for _, path := range []string{
		"/System/Library/Frameworks/AppKit.framework/AppKit",
		"/System/Library/Frameworks/QuartzCore.framework/QuartzCore",
	} {
		if _, err := purego.Dlopen(path, purego.RTLD_GLOBAL|purego.RTLD_NOW); err != nil {
			return fmt.Errorf("appkit: load %s: %w", path, err)
		}
	}
	return nil
})

// nsString returns a retained NSString; the caller releases it.
func nsString(s string) objc.ID {
	b := []byte(s)
	var p *byte
	if len(b) > 0 {
		p = &b[0]
	}
	return class("NSString").Send(selAlloc).Send(selInitWithBytes, p, uint64(len(b)), uint64(nsUTF8Encoding))
}

func autoreleasePool() objc.ID { return class("NSAutoreleasePool").Send(selNew) }

func menuItem(title string, action objc.SEL, key string) objc.ID {
	t, k := nsString(title), nsString(key)
	defer t.Send(selRelease)
	defer k.Send(selRelease)
	return class("NSMenuItem").Send(selAlloc).Send(selInitWithTitle, t, action, k)
}

// mainMenu builds the application menu.
func mainMenu(appName string) objc.ID {
	app := class("NSMenu").Send(selNew)
	add := func(item objc.ID) {
		app.Send(selAddItem, item)
		item.Send(selRelease)
	}
	separator := func() { app.Send(selAddItem, class("NSMenuItem").Send(selSeparatorItem)) }

	add(menuItem("About "+appName, selOrderFrontAbout, ""))
	separator()
	services := class("NSMenu").Send(selNew)
	servicesItem := menuItem("Services", 0, "")
	servicesItem.Send(selSetSubmenu, services)
	app.Send(selAddItem, servicesItem)
	servicesItem.Send(selRelease)
	separator()
	add(menuItem("Hide "+appName, selHide, "h"))
	others := menuItem("Hide Others", selHideOthers, "h")
	others.Send(selSetKeyEquivalentMask, uint64(nsEventModifierFlagCommand|nsEventModifierFlagOption))
	add(others)
	add(menuItem("Show All", selUnhideAll, ""))
	separator()
	add(menuItem("Quit "+appName, selTerminate, "q"))

	root := class("NSMenu").Send(selNew)
	top := menuItem("", 0, "")
	top.Send(selSetSubmenu, app)
	root.Send(selAddItem, top)
	top.Send(selRelease)
	app.Send(selRelease)

	class("NSApplication").Send(selSharedApplication).Send(selSetServicesMenu, services)
	services.Send(selRelease)
	return root
}
