// Package imu provides the inertial collaborators of the flight loop: board
// mounting orientations, a simulated IMU/AHRS driver, and quaternion to
// Euler conversion for attitude estimators that report quaternions.
package imu
