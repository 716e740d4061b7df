/*
go-golfswing analyses a live stream of human pose frames captured during a
golf swing.  For every frame it classifies the phase of the swing, from setup
and address through the backswing, transition, downswing and impact to the
finish, and computes biomechanical metrics such as the shoulder to hip
separation, kinematic sequence, power, balance, tempo and consistency across
swings.

Pose estimation itself is external, frames are supplied through the
pose.Source interface or published to an Engine directly.  The Engine
processes frames in timestamp order on a dedicated goroutine, dropping rather
than queueing frames that arrive faster than it is configured to handle.

See example code and usage in the example subdirectory.
*/
package golfswing
