// This file is part of otfvdp.
//
// otfvdp is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// otfvdp is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with otfvdp.  If not, see <https://www.gnu.org/licenses/>.


package gui

// FeatureReq is used to request the setting of a gui attribute
// eg. the window scaling.
type FeatureReq string

// FeatureReqData represents the information associated with a FeatureReq. See
// commentary for the defined FeatureReq values for the underlying type.
type FeatureReqData interface{}

// List of valid feature requests. argument must be of the type specified or
// else the request will fail.
const (
	// whether the gui is visible or not.
	ReqSetVisibility FeatureReq = "ReqSetVisibility" // bool

	// scaling of the displayed video mode. the window is resized to fit.
	ReqSetScale FeatureReq = "ReqSetScale" // float32

	// put gui output into full-screen mode.
	ReqFullScreen FeatureReq = "ReqFullScreen" // bool

	// title of the window.
	ReqSetTitle FeatureReq = "ReqSetTitle" // string

	// limit the rate at which frames are presented to the frame rate of the
	// video mode.
	ReqMonitorSync FeatureReq = "ReqMonitorSync" // bool
)
